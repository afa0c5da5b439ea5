package api

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/NickAlarcon7/Get-It-Done-App/internal/models"
	"github.com/NickAlarcon7/Get-It-Done-App/internal/tasks"
)

//go:embed schemas/compose.schema.json
var composeSchemaJSON string

const composeSchemaURL = "compose.schema.json"

const maxBodyBytes = 1 << 20

var composeSchema = mustCompileComposeSchema()

func mustCompileComposeSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource(composeSchemaURL, strings.NewReader(composeSchemaJSON)); err != nil {
		panic(fmt.Sprintf("add compose schema: %v", err))
	}
	schema, err := compiler.Compile(composeSchemaURL)
	if err != nil {
		panic(fmt.Sprintf("compile compose schema: %v", err))
	}
	return schema
}

// composeRequest is the body of POST /tasks and PUT /tasks/{id}. Absent
// fields keep the form's prefilled value.
type composeRequest struct {
	Title    *string          `json:"title"`
	Note     *string          `json:"note"`
	DueDate  *time.Time       `json:"dueDate"`
	Priority *models.Priority `json:"priority"`
}

// apply overlays the request onto a prefilled form.
func (req composeRequest) apply(f tasks.Form) tasks.Form {
	if req.Title != nil {
		f.Title = *req.Title
	}
	if req.Note != nil {
		f.Note = *req.Note
	}
	if req.DueDate != nil {
		f.DueDate = *req.DueDate
	}
	if req.Priority != nil {
		f.Segment = tasks.SegmentFromPriority(*req.Priority)
	}
	return f
}

// decodeCompose reads the body, validates it against the compose schema and
// decodes it.
func decodeCompose(r *http.Request) (composeRequest, error) {
	var req composeRequest

	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return req, fmt.Errorf("read body: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return req, errors.New("empty body")
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return req, fmt.Errorf("malformed JSON: %w", err)
	}
	if err := composeSchema.Validate(doc); err != nil {
		return req, schemaError(err)
	}

	if err := json.Unmarshal(data, &req); err != nil {
		return req, err
	}
	return req, nil
}

// schemaError reduces a schema failure to its first leaf cause.
func schemaError(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	loc := ve.InstanceLocation
	if loc == "" {
		loc = "/"
	}
	return fmt.Errorf("%s: %s", loc, ve.Message)
}
