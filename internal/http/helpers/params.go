package helpers

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	httperrors "github.com/dropDatabas3/comanda/internal/http/errors"
)

// PathInt64 lee un parámetro numérico positivo de la ruta.
func PathInt64(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return 0, httperrors.ErrInvalidParameter.WithDetail(name + " debe ser un entero positivo")
	}
	return v, nil
}

// PathInt es PathInt64 para números de mesa.
func PathInt(r *http.Request, name string) (int, error) {
	v, err := PathInt64(r, name)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

// PathString lee un parámetro de texto no vacío de la ruta, ya decodificado.
func PathString(r *http.Request, name string) (string, error) {
	raw, err := url.PathUnescape(chi.URLParam(r, name))
	if err != nil || strings.TrimSpace(raw) == "" {
		return "", httperrors.ErrInvalidParameter.WithDetail(name + " es obligatorio")
	}
	return raw, nil
}
