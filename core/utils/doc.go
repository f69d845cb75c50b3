// Package utils provides common helpers for the site-sync application:
// loose conversion of decoded payload values (ids, flags, timestamps, nested
// maps) and slug normalisation.
package utils
