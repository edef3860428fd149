// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation via the X-API-Key header or api_key query parameter.
//   - rayid: assigns every request a RayID, stored in locals and echoed in the
//     X-Ray-ID response header so log lines can be correlated.
package middleware
