package envstruct_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/myrjola/fitplan/internal/envstruct"
)

func TestPopulate(t *testing.T) {
	type typed struct {
		Addr     string        `env:"ADDR"`
		Days     int           `env:"DAYS" envDefault:"180"`
		Secure   bool          `env:"SECURE" envDefault:"true"`
		Lifetime time.Duration `env:"LIFETIME" envDefault:"12h"`
	}

	tests := []struct {
		name      string
		v         any
		lookupEnv func(string) (string, bool)
		want      any
		wantErr   error
	}{
		{
			name:      "nil",
			v:         nil,
			lookupEnv: func(_ string) (string, bool) { return "", false },
			want:      nil,
			wantErr:   envstruct.ErrInvalidValue,
		},
		{
			name:      "not pointer",
			v:         struct{}{},
			lookupEnv: func(_ string) (string, bool) { return "", false },
			want:      nil,
			wantErr:   envstruct.ErrInvalidValue,
		},
		{
			name: "empty env",
			v: &struct { //nolint:exhaustruct // populated later
				EnvVar string `env:"ENV_VAR"`
			}{},
			lookupEnv: func(_ string) (string, bool) { return "", false },
			want:      nil,
			wantErr:   envstruct.ErrEnvNotSet,
		},
		{
			name: "picks correct env variable",
			v: &struct { //nolint:exhaustruct // populated later
				EnvVar     string `env:"ENV_VAR"`
				EnvVar2    string `env:"ENV_VAR2"`
				OtherValue string
			}{},
			lookupEnv: func(s string) (string, bool) { return strings.ToLower(s), true },
			want: &struct {
				EnvVar     string `env:"ENV_VAR"`
				EnvVar2    string `env:"ENV_VAR2"`
				OtherValue string
			}{EnvVar: "env_var", EnvVar2: "env_var2", OtherValue: ""},
			wantErr: nil,
		},
		{
			name:      "typed defaults",
			v:         &typed{}, //nolint:exhaustruct // populated later
			lookupEnv: func(s string) (string, bool) { return "localhost:0", s == "ADDR" },
			want:      &typed{Addr: "localhost:0", Days: 180, Secure: true, Lifetime: 12 * time.Hour},
			wantErr:   nil,
		},
		{
			name: "typed values from env",
			v:    &typed{}, //nolint:exhaustruct // populated later
			lookupEnv: func(s string) (string, bool) {
				return map[string]string{
					"ADDR": ":8080", "DAYS": "7", "SECURE": "false", "LIFETIME": "30m",
				}[s], true
			},
			want:    &typed{Addr: ":8080", Days: 7, Secure: false, Lifetime: 30 * time.Minute},
			wantErr: nil,
		},
		{
			name:      "unparsable int",
			v:         &typed{}, //nolint:exhaustruct // populated later
			lookupEnv: func(s string) (string, bool) { return "many", s == "DAYS" || s == "ADDR" },
			want:      nil,
			wantErr:   envstruct.ErrParse,
		},
		{
			name: "unsupported kind",
			v: &struct { //nolint:exhaustruct // populated later
				Ratio float64 `env:"RATIO" envDefault:"0.5"`
			}{},
			lookupEnv: func(_ string) (string, bool) { return "", false },
			want:      nil,
			wantErr:   envstruct.ErrInvalidValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := envstruct.Populate(tt.v, tt.lookupEnv)

			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Populate() error = %v, wantErr %v", err, tt.wantErr)
			}

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Populate() unexpected error = %v", err)
				}
				if diff := cmp.Diff(tt.want, tt.v); diff != "" {
					t.Errorf("Populate() mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}

func TestWithDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("FITPLAN_ADDR=localhost:9000\nFITPLAN_LOG_LEVEL=warn\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	osEnv := func(key string) (string, bool) {
		if key == "FITPLAN_LOG_LEVEL" {
			return "debug", true
		}
		return "", false
	}

	lookup, err := envstruct.WithDotEnv(osEnv, path)
	if err != nil {
		t.Fatalf("WithDotEnv: %v", err)
	}
	if got, ok := lookup("FITPLAN_ADDR"); !ok || got != "localhost:9000" {
		t.Errorf("FITPLAN_ADDR = %q, %v; want value from file", got, ok)
	}
	if got, _ := lookup("FITPLAN_LOG_LEVEL"); got != "debug" {
		t.Errorf("FITPLAN_LOG_LEVEL = %q, want the process environment to win", got)
	}
	if _, ok := lookup("FITPLAN_MISSING"); ok {
		t.Error("expected missing variable to be unset")
	}

	if _, err = envstruct.WithDotEnv(osEnv, filepath.Join(dir, "absent.env")); err != nil {
		t.Errorf("missing env file should be ignored, got %v", err)
	}
}
