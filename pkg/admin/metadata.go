package admin

import (
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// MetadataFieldType is the value type of a structured metadata field.
type MetadataFieldType string

const (
	MetadataString  MetadataFieldType = "string"
	MetadataInteger MetadataFieldType = "integer"
	MetadataDate    MetadataFieldType = "date"
	MetadataEnum    MetadataFieldType = "enum"
	MetadataSet     MetadataFieldType = "set"
)

// MetadataField is a structured metadata field definition.
type MetadataField struct {
	ExternalID   string              `json:"external_id,omitempty"`
	Label        string              `json:"label"`
	Type         MetadataFieldType   `json:"type"`
	Mandatory    bool                `json:"mandatory,omitempty"`
	DefaultValue any                 `json:"default_value,omitempty"`
	Validation   *MetadataValidation `json:"validation,omitempty"`
	DataSource   *DataSource         `json:"datasource,omitempty"`
}

// MetadataValidation constrains the values of a field. Type is one of
// greater_than, less_than, strlen, and or or.
type MetadataValidation struct {
	Type   string               `json:"type"`
	Min    any                  `json:"min,omitempty"`
	Max    any                  `json:"max,omitempty"`
	Equals bool                 `json:"equals,omitempty"`
	Value  any                  `json:"value,omitempty"`
	Rules  []MetadataValidation `json:"rules,omitempty"`
}

// DataSource lists the allowed values of an enum or set field.
type DataSource struct {
	Values []DataSourceEntry `json:"values"`
}

// DataSourceEntry is one allowed value.
type DataSourceEntry struct {
	ExternalID string `json:"external_id,omitempty"`
	Value      string `json:"value"`
	State      string `json:"state,omitempty"`
}

// MetadataFieldList is the response of ListMetadataFields.
type MetadataFieldList struct {
	Fields []MetadataField `json:"metadata_fields"`
}

// Validate validates the field definition.
func (f MetadataField) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Label, validation.Required),
		validation.Field(&f.Type, validation.Required, validation.In(
			MetadataString, MetadataInteger, MetadataDate, MetadataEnum, MetadataSet)),
		validation.Field(&f.DataSource,
			validation.When(f.Type == MetadataEnum || f.Type == MetadataSet, validation.Required)),
	)
}

// Validate validates the datasource entries.
func (d DataSource) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Values, validation.Required),
	)
}

// Validate validates a datasource entry.
func (e DataSourceEntry) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Value, validation.Required),
	)
}

// ListMetadataFields returns every metadata field definition.
func (a *API) ListMetadataFields(ctx context.Context) ([]MetadataField, error) {
	var result MetadataFieldList
	resp, err := a.transport.Get(ctx, []string{metadataFieldsPath}, nil)
	if err := decode(resp, err, "list metadata fields", &result); err != nil {
		return nil, err
	}
	return result.Fields, nil
}

// MetadataFieldByID returns a single metadata field definition.
func (a *API) MetadataFieldByID(ctx context.Context, externalID string) (*MetadataField, error) {
	var result MetadataField
	path := []string{metadataFieldsPath, externalID}
	resp, err := a.transport.Get(ctx, path, nil)
	if err := decode(resp, err, "get metadata field", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AddMetadataField creates a metadata field.
func (a *API) AddMetadataField(ctx context.Context, field MetadataField) (*MetadataField, error) {
	if err := field.Validate(); err != nil {
		return nil, fmt.Errorf("invalid metadata field: %w", err)
	}

	var result MetadataField
	path := []string{metadataFieldsPath}
	resp, err := a.transport.PostJSON(ctx, path, field)
	if err := decode(resp, err, "add metadata field", &result); err != nil {
		return nil, err
	}
	a.logger.Debug("added metadata field", "external_id", result.ExternalID, "type", result.Type)
	return &result, nil
}

// UpdateMetadataField replaces the definition of an existing field.
func (a *API) UpdateMetadataField(ctx context.Context, externalID string, field MetadataField) (*MetadataField, error) {
	if externalID == "" {
		return nil, fmt.Errorf("external id is required")
	}

	var result MetadataField
	path := []string{metadataFieldsPath, externalID}
	resp, err := a.transport.PutJSON(ctx, path, field)
	if err := decode(resp, err, "update metadata field", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteMetadataField deletes a field definition.
func (a *API) DeleteMetadataField(ctx context.Context, externalID string) error {
	if externalID == "" {
		return fmt.Errorf("external id is required")
	}

	path := []string{metadataFieldsPath, externalID}
	var result map[string]any
	resp, err := a.transport.Delete(ctx, path, nil)
	return decode(resp, err, "delete metadata field", &result)
}
