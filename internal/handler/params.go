package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

var pathParamOptions = runtime.BindStyledParameterOptions{
	ParamLocation: runtime.ParamLocationPath,
	Explode:       false,
	Required:      true,
}

// bindPath binds the named chi URL parameter into dst using the OpenAPI
// "simple" style, the same way generated servers bind path parameters.
func bindPath(r *http.Request, name string, dst any) error {
	if err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), dst, pathParamOptions); err != nil {
		return fmt.Errorf("invalid format for parameter %s: %w", name, err)
	}
	return nil
}

func pathString(r *http.Request, name string) (string, error) {
	var v string
	err := bindPath(r, name, &v)
	return v, err
}

func pathUUID(r *http.Request, name string) (openapi_types.UUID, error) {
	var v openapi_types.UUID
	err := bindPath(r, name, &v)
	return v, err
}

// queryString binds an optional form-style query parameter. A missing
// parameter yields "".
func queryString(r *http.Request, name string) (string, error) {
	var v *string
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), &v); err != nil {
		return "", fmt.Errorf("invalid format for parameter %s: %w", name, err)
	}
	if v == nil {
		return "", nil
	}
	return *v, nil
}
