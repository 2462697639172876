package api

import (
	"mime/multipart"
	"sort"

	"github.com/trendora/storefront-client/internal/core/ports"
)

// writeFields appends the non-empty entries of fields as scalar form fields,
// in sorted key order so request bodies are deterministic.
func writeFields(w *multipart.Writer, fields map[string]string) error {
	keys := make([]string, 0, len(fields))
	for k, v := range fields {
		if v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := w.WriteField(k, fields[k]); err != nil {
			return err
		}
	}
	return nil
}

// writeFile appends one upload as a file part under the given field name.
func writeFile(w *multipart.Writer, field string, up ports.Upload) error {
	part, err := w.CreateFormFile(field, up.Filename)
	if err != nil {
		return err
	}
	_, err = part.Write(up.Content)
	return err
}

// writeProductForm serialises a ProductForm: every field becomes a scalar
// part, and each image a repeated file part under the "images" key.
func writeProductForm(w *multipart.Writer, form ports.ProductForm) error {
	if err := writeFields(w, form.Fields); err != nil {
		return err
	}
	for _, img := range form.Images {
		if err := writeFile(w, "images", img); err != nil {
			return err
		}
	}
	return nil
}
