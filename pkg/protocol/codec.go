package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Encode 把载荷包装成信封并序列化
func Encode(t string, payload any) ([]byte, error) {
	if t == "" {
		return nil, errors.New("envelope type is empty")
	}
	if payload == nil {
		return nil, fmt.Errorf("nil payload for type %q", t)
	}
	pb, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{T: t, P: pb})
}

// DecodeEnvelope 解析信封（不解析载荷）
func DecodeEnvelope(b []byte) (Envelope, error) {
	if len(b) == 0 {
		return Envelope{}, errors.New("empty message")
	}
	var e Envelope
	if err := json.Unmarshal(b, &e); err != nil {
		return Envelope{}, err
	}
	return e, nil
}

// DecodePayload 把信封载荷解析为 T
func DecodePayload[T any](env Envelope) (T, error) {
	var out T
	if len(env.P) == 0 {
		return out, fmt.Errorf("empty payload for type %q", env.T)
	}
	err := json.Unmarshal(env.P, &out)
	return out, err
}
