// Package api serves scenes and connector routing over HTTP.
//
// Scenes live in a [storage.Store]. Every request that touches a scene
// loads it, holds that scene's lock for the duration of the request and,
// for mutations, writes it back before responding, so concurrent editors
// of one scene are serialised while different scenes proceed in parallel.
//
// # Endpoints
//
//	GET    /healthz
//	GET    /api/scenes
//	GET    /api/scenes/{scene}
//	PUT    /api/scenes/{scene}
//	DELETE /api/scenes/{scene}
//	GET    /api/scenes/{scene}/routes
//	GET    /api/scenes/{scene}/render.{svg|png|dot}
//	POST   /api/scenes/{scene}/connectors
//	DELETE /api/scenes/{scene}/connectors/{conn}
//	GET    /api/scenes/{scene}/connectors/{conn}/route
//	POST   /api/scenes/{scene}/connectors/{conn}/offsets
//	DELETE /api/scenes/{scene}/connectors/{conn}/offsets
//	POST   /api/scenes/{scene}/connectors/{conn}/reconnect
//	POST   /api/scenes/{scene}/connectors/{conn}/swap
//	POST   /api/scenes/{scene}/shapes/{shape}/move
//	POST   /api/scenes/{scene}/containers/{shape}/collapse
//	POST   /api/scenes/{scene}/containers/{shape}/expand
//
// The route endpoint accepts segment and delta query parameters to preview
// an in-progress segment drag without storing it.
//
// Errors are JSON objects {"code": ..., "message": ...}; the status is
// derived from the [errors.Code].
package api
