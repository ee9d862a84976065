// Copyright (C) 2026 Meridian DMS (engineering@meridiandms.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package registry

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the registry API on the given router. Mutating
// routes sit behind the rate limiter; reads are unthrottled.
func RegisterRoutes(router *gin.Engine, h *Handlers, rateCfg RateLimitConfig) {
	router.GET("/health", h.HandleHealth)
	router.GET("/ready", h.HandleReady)

	v1 := router.Group("/v1/registry")

	limited := v1.Group("")
	limited.Use(RateLimit(rateCfg))
	limited.POST("/documents", h.HandleRegisterDocument)
	limited.POST("/dependencies", h.HandleCreateDependency)
	limited.DELETE("/dependencies/:id", h.HandleRemoveDependency)
	limited.POST("/documents/:id/obsolescence-check", h.HandleObsolescenceCheck)

	v1.GET("/documents/:id", h.HandleGetDocument)
	v1.GET("/documents/:id/chain", h.HandleChain)
	v1.GET("/integrity/cycles", h.HandleCycleScan)
}
