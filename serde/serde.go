package serde

// Serializer encodes a value to bytes
type Serializer[T any] func(T) ([]byte, error)

// Deserializer decodes a value from bytes
type Deserializer[T any] func([]byte) (T, error)

// SerDe pairs a Serializer with its Deserializer
type SerDe[T any] struct {
	Serializer   Serializer[T]
	Deserializer Deserializer[T]
}
