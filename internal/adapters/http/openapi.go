package httpadapter

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/kirillkom/citecheck/internal/core/domain"
)

//go:embed openapi.yaml
var openAPISpec []byte

type requestValidator struct {
	checkRequest *openapi3.Schema
}

func loadRequestValidator(ctx context.Context) (*requestValidator, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(openAPISpec)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate openapi document: %w", err)
	}

	path := doc.Paths.Value("/v1/checks")
	if path == nil || path.Post == nil || path.Post.RequestBody == nil || path.Post.RequestBody.Value == nil {
		return nil, errors.New("openapi document lacks POST /v1/checks request body")
	}
	media := path.Post.RequestBody.Value.Content.Get("application/json")
	if media == nil || media.Schema == nil || media.Schema.Value == nil {
		return nil, errors.New("openapi document lacks CheckRequest schema")
	}
	return &requestValidator{checkRequest: media.Schema.Value}, nil
}

// decodeCheckRequest validates body against the CheckRequest schema before
// decoding it.
func (v *requestValidator) decodeCheckRequest(body []byte) (domain.CheckRequest, error) {
	var generic any
	if err := json.Unmarshal(body, &generic); err != nil {
		return domain.CheckRequest{}, domain.WrapPublic(domain.ErrValidation, "Request body must be valid JSON", err)
	}
	if err := v.checkRequest.VisitJSON(generic); err != nil {
		message := "Invalid request body"
		var schemaErr *openapi3.SchemaError
		if errors.As(err, &schemaErr) && schemaErr.Reason != "" {
			message += ": " + schemaErr.Reason
		}
		return domain.CheckRequest{}, domain.WrapPublic(domain.ErrValidation, message, err)
	}

	var req domain.CheckRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return domain.CheckRequest{}, domain.WrapPublic(domain.ErrValidation, "Invalid request body", err)
	}
	return req, nil
}
