// Copyright (C) 2026 Meridian DMS (engineering@meridiandms.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package registry

import (
	"regexp"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// docidPattern bounds identifier shape at the HTTP boundary: leading
// alphanumeric, then alphanumerics, dots, hyphens, underscores. The
// engine itself treats identifiers as opaque; this only rejects obvious
// garbage (whitespace, path separators) before it reaches the store.
var docidPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,127}$`)

var registerValidationsOnce sync.Once

// registerValidations installs the custom "docid" rule on gin's
// binding validator. Safe to call from every handler constructor.
func registerValidations() {
	registerValidationsOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("docid", func(fl validator.FieldLevel) bool {
				return docidPattern.MatchString(fl.Field().String())
			})
		}
	})
}
