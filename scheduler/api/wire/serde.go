package wire

import (
	"bytes"
	"strings"

	"github.com/golang/protobuf/jsonpb"
	"github.com/golang/protobuf/proto"
	"github.com/pkg/errors"
)

// Initialization flags selecting the message encoding for a session.
const (
	FormatBinary uint32 = 1 << 0
	FormatJSON   uint32 = 1 << 1
)

// ValidateFlags rejects flag words containing bits outside the known format
// flags, and words that select both formats at once.
func ValidateFlags(flags uint32) error {
	if flags&^(FormatBinary|FormatJSON) != 0 {
		return errors.Errorf("invalid format flags: %#x", flags)
	}
	if flags&FormatBinary != 0 && flags&FormatJSON != 0 {
		return errors.Errorf("format flags select both binary and json: %#x", flags)
	}
	return nil
}

// Serializer encodes and decodes protocol messages in one concrete format.
// Implementations are stateless and safe for concurrent use.
type Serializer interface {
	Serialize(msg proto.Message) ([]byte, error)
	Deserialize(data []byte, msg proto.Message) error
}

// NewSerializer returns the serializer selected by the session's format
// flags. JSON is the default when no format bit is set.
func NewSerializer(flags uint32) (Serializer, error) {
	if err := ValidateFlags(flags); err != nil {
		return nil, err
	}
	if flags&FormatBinary != 0 {
		return binarySerializer{}, nil
	}
	return jsonSerializer{}, nil
}

type binarySerializer struct{}

func (binarySerializer) Serialize(msg proto.Message) ([]byte, error) {
	data, err := proto.Marshal(msg)
	if err != nil {
		return nil, errors.Wrap(err, "serializing message")
	}
	return data, nil
}

func (binarySerializer) Deserialize(data []byte, msg proto.Message) error {
	if err := proto.Unmarshal(data, msg); err != nil {
		return errors.Wrap(err, "deserializing message")
	}
	return nil
}

type jsonSerializer struct{}

func (jsonSerializer) Serialize(msg proto.Message) ([]byte, error) {
	marshaler := jsonpb.Marshaler{OrigName: true}
	var buf bytes.Buffer
	if err := marshaler.Marshal(&buf, msg); err != nil {
		return nil, errors.Wrap(err, "serializing message")
	}
	return buf.Bytes(), nil
}

func (jsonSerializer) Deserialize(data []byte, msg proto.Message) error {
	unmarshaler := jsonpb.Unmarshaler{AllowUnknownFields: true}
	if err := unmarshaler.Unmarshal(strings.NewReader(string(data)), msg); err != nil {
		return errors.Wrap(err, "deserializing message")
	}
	return nil
}
