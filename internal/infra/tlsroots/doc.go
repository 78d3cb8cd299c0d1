// Package tlsroots builds the client certificate trust pool.
//
// The gateway verifies client certificates in require mode against a
// pool assembled here:
//
//   - Explicit trust: a PEM file, or a directory of .pem/.crt/.cer files
//   - Fallback: the system roots when no trust path is configured
//
// The pool is loaded once at startup. Changing the trust set requires
// a restart; only the server certificate hot-reloads.
package tlsroots
