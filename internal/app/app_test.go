package app

import (
	"errors"
	"fmt"
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/AlexStampfl/3D-Square/internal/engine/shader"
)

func fieldMap(t *testing.T, err error) map[string]string {
	t.Helper()
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range BuildErrorFields(err) {
		f.AddTo(enc)
	}
	out := make(map[string]string, len(enc.Fields))
	for k, v := range enc.Fields {
		out[k] = fmt.Sprint(v)
	}
	return out
}

func TestBuildErrorFields(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want map[string]string
	}{
		{
			name: "compile",
			err:  fmt.Errorf("rebuild: %w", &shader.CompileError{Stage: shader.Fragment, Log: "0:3: syntax error"}),
			want: map[string]string{"step": "compile", "stage": "fragment", "log": "0:3: syntax error"},
		},
		{
			name: "link",
			err:  &shader.LinkError{Log: "varying not written"},
			want: map[string]string{"step": "link", "log": "varying not written"},
		},
		{
			name: "other",
			err:  errors.New("boom"),
			want: map[string]string{"error": "boom"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fieldMap(t, tt.err)
			if len(got) != len(tt.want) {
				t.Fatalf("fields = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("field %q = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}
