package protocol

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const schemaBaseURL = "https://trashcatch.local/schemas/"

// Validator 校验客户端消息
type Validator struct {
	envelope *jsonschema.Schema
	payloads map[string]*jsonschema.Schema // 消息类型 -> 载荷 schema
}

var (
	defaultValidator     *Validator
	defaultValidatorErr  error
	defaultValidatorOnce sync.Once
)

// DefaultValidator 返回使用内嵌 schema 的校验器（只编译一次）
func DefaultValidator() (*Validator, error) {
	defaultValidatorOnce.Do(func() {
		defaultValidator, defaultValidatorErr = NewValidator()
	})
	return defaultValidator, defaultValidatorErr
}

// NewValidator 编译内嵌的 schema
func NewValidator() (*Validator, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	for _, name := range []string{"envelope", "hello", "pointer"} {
		file := name + ".schema.json"
		data, err := schemaFS.ReadFile("schemas/" + file)
		if err != nil {
			return nil, fmt.Errorf("failed to read schema %s: %w", file, err)
		}
		if err := c.AddResource(schemaBaseURL+file, bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("failed to add schema %s: %w", file, err)
		}
	}

	v := &Validator{payloads: make(map[string]*jsonschema.Schema)}
	var err error
	if v.envelope, err = c.Compile(schemaBaseURL + "envelope.schema.json"); err != nil {
		return nil, fmt.Errorf("failed to compile envelope schema: %w", err)
	}
	for _, t := range []string{MsgHello, MsgPointer} {
		s, err := c.Compile(schemaBaseURL + t + ".schema.json")
		if err != nil {
			return nil, fmt.Errorf("failed to compile %s schema: %w", t, err)
		}
		v.payloads[t] = s
	}
	return v, nil
}

// Decode 解析并校验一条客户端消息
func (v *Validator) Decode(b []byte) (Envelope, error) {
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return Envelope{}, fmt.Errorf("invalid json: %w", err)
	}
	if err := v.envelope.Validate(doc); err != nil {
		return Envelope{}, fmt.Errorf("invalid envelope: %w", err)
	}
	env, err := DecodeEnvelope(b)
	if err != nil {
		return Envelope{}, err
	}
	schema, ok := v.payloads[env.T]
	if !ok {
		return Envelope{}, fmt.Errorf("unsupported message type %q", env.T)
	}
	if err := schema.Validate(doc.(map[string]any)["p"]); err != nil {
		return Envelope{}, fmt.Errorf("invalid %s payload: %w", env.T, err)
	}
	return env, nil
}
