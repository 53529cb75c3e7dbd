package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strings"
)

const maxBodyBytes = 1 << 20

var errUnsupportedBody = errors.New("unsupported request body")

// readForm returns the submitted fields whatever the encoding. JSON scalars become single values and
// JSON arrays become repeated values, matching how FormData carries repeated inputs.
func readForm(w http.ResponseWriter, r *http.Request) (url.Values, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	mediaType := "application/x-www-form-urlencoded"
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errUnsupportedBody, err)
		}
		mediaType = mt
	}
	switch mediaType {
	case "application/json":
		return readJSONForm(r)
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
			return nil, fmt.Errorf("%w: %v", errUnsupportedBody, err)
		}
		return r.PostForm, nil
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("%w: %v", errUnsupportedBody, err)
		}
		return r.PostForm, nil
	default:
		return nil, fmt.Errorf("%w: %s", errUnsupportedBody, mediaType)
	}
}

func readJSONForm(r *http.Request) (url.Values, error) {
	var raw map[string]interface{}
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", errUnsupportedBody, err)
	}
	values := url.Values{}
	for key, v := range raw {
		switch t := v.(type) {
		case nil:
		case []interface{}:
			for _, item := range t {
				s, ok := scalarString(item)
				if !ok {
					return nil, fmt.Errorf("%w: field %q", errUnsupportedBody, key)
				}
				values.Add(key, s)
			}
		default:
			s, ok := scalarString(t)
			if !ok {
				return nil, fmt.Errorf("%w: field %q", errUnsupportedBody, key)
			}
			values.Set(key, s)
		}
	}
	return values, nil
}

func scalarString(v interface{}) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case bool:
		if t {
			return "true", true
		}
		return "false", true
	default:
		return "", false
	}
}

// firstValue is url.Values.Get without the surrounding whitespace browsers leave on text inputs.
func firstValue(v url.Values, key string) string {
	return strings.TrimSpace(v.Get(key))
}
