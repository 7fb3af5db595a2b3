package cmd

import (
	"net/http"
	"os"
)

var (
	envGet = os.Getenv
	// listenAndServe starts the HTTP server for 'serve'.
	listenAndServe = func(srv *http.Server) error { return srv.ListenAndServe() }
)
