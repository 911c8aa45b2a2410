// Package cli implements the interactive Scrawl client: a REPL over the
// session manager and the content view model. It is presentation glue only;
// all state lives in the session and content packages.
package cli
