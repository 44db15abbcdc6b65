package logger

import "log/slog"

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Provider records the OAuth provider identifier under the key "provider".
func Provider(name string) slog.Attr {
	return slog.String("provider", name)
}

// FlowID records the sign-in flow identifier under the key "flow_id".
func FlowID(id string) slog.Attr {
	return slog.String("flow_id", id)
}

// ErrorClass records the callback error classification under the key "error_class".
func ErrorClass(class string) slog.Attr {
	return slog.String("error_class", class)
}

// UserID records the user identifier under the key "user_id".
// If id is nil, it returns an empty Attr.
func UserID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("user_id", id)
}

// WorkspaceID records the workspace identifier under the key "workspace_id".
// If id is nil, it returns an empty Attr.
func WorkspaceID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("workspace_id", id)
}

// RequestID records the request identifier under the key "request_id".
// If id is nil, it returns an empty Attr.
func RequestID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("request_id", id)
}
