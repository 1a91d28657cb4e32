package socketio_utils

// EventPayload extracts the object payload of a socket.io event, or nil
// when the client sent none.
func EventPayload(args []interface{}) map[string]interface{} {
	if len(args) < 1 {
		return nil
	}
	payload, ok := args[0].(map[string]interface{})
	if !ok {
		return nil
	}
	return payload
}

// PayloadString reads a string field from an event payload.
func PayloadString(payload map[string]interface{}, key string) string {
	if payload == nil {
		return ""
	}
	value, _ := payload[key].(string)
	return value
}

// PayloadInt reads a numeric field from an event payload. JSON numbers
// arrive as float64.
func PayloadInt(payload map[string]interface{}, key string) int {
	if payload == nil {
		return 0
	}
	switch v := payload[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}
