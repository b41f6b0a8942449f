package serde

var StringSerializer = func(data string) ([]byte, error) {
	return []byte(data), nil
}

var StringDeserializer = func(data []byte) (string, error) {
	return string(data), nil
}

var String = SerDe[string]{
	Serializer:   StringSerializer,
	Deserializer: StringDeserializer,
}
