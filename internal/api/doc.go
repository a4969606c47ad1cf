// Package api provides the HTTP transport for the price-tracker server.
//
// # Overview
//
// Client sends JSON requests and decodes JSON responses. It keeps the
// session cookie the server sets on sign-in in a cookie jar, so later
// requests are authenticated the same way a browser with credentials
// enabled would be. With WithCookieStore the cookies are also written to
// the session cache under CookieCacheKey and put back into the jar by
// NewClient, so a restarted client keeps its server session until the cache
// is cleared.
//
//	client, err := api.NewClient("http://127.0.0.1:5000", api.WithTimeout(5*time.Second))
//	if err != nil {
//		return err
//	}
//	var products []map[string]any
//	err = client.Call(ctx, http.MethodGet, "/api/product/all-products", nil, &products)
//
// # Errors
//
// Call distinguishes two failure shapes:
//
//   - *ResponseError: the server answered with status >= 400. The raw body
//     is kept and, when it is a JSON object with a "message" string, the
//     message is extracted.
//   - any other error: the request never produced a response (connection
//     refused, timeout, context cancelled, undecodable success body).
//
// Nothing is retried. Every request carries an X-Request-ID header so server
// logs can be matched with client logs.
package api
