// Package web wires an authentication provider into a fiber app: a
// catch-all route under the provider's base path, the global route guard,
// the exception filter, hook splicing and CORS derived from the provider's
// trusted origins. Configuration comes in a manual variant (New), a builder
// variant (NewBuilder), an async variant (NewAsync) and an attach variant
// (Attach) for apps the caller owns.
package web
