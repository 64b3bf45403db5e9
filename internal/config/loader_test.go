package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/incent/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.CommissionSteps, convey.ShouldEqual, 100)
				convey.So(cfg.EffortSteps, convey.ShouldEqual, 100)
				convey.So(cfg.DefaultCurve, convey.ShouldEqual, "linear")
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("INCENT_ADDR", ":8080")
			_ = os.Setenv("INCENT_COMMISSION_STEPS", "50")
			_ = os.Setenv("INCENT_EFFORT_STEPS", "80")
			_ = os.Setenv("INCENT_DEFAULT_CURVE", "quadratic")
			_ = os.Setenv("INCENT_HISTORY_SIZE", "16")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.CommissionSteps, convey.ShouldEqual, 50)
				convey.So(cfg.EffortSteps, convey.ShouldEqual, 80)
				convey.So(cfg.DefaultCurve, convey.ShouldEqual, "quadratic")
				convey.So(cfg.HistorySize, convey.ShouldEqual, 16)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":7070"
commission_steps: 40
effort_steps: 60
effort_cost: 2.0
grid_workers: 4
`
			tmpFile := createTempConfigFile(t, yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("INCENT_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.CommissionSteps, convey.ShouldEqual, 40)
				convey.So(cfg.EffortSteps, convey.ShouldEqual, 60)
				convey.So(cfg.EffortCost, convey.ShouldEqual, 2.0)
				convey.So(cfg.GridWorkers, convey.ShouldEqual, 4)
			})
		})

		convey.Convey("When env vars override a YAML file", func() {
			yamlContent := `
addr: ":7070"
commission_steps: 40
`
			tmpFile := createTempConfigFile(t, yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("INCENT_CONFIG", tmpFile)
			_ = os.Setenv("INCENT_ADDR", ":6060")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then env should win over file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":6060")
				convey.So(cfg.CommissionSteps, convey.ShouldEqual, 40)
			})
		})

		convey.Convey("When the config is invalid", func() {
			_ = os.Setenv("INCENT_COMMISSION_MIN", "0.9")
			_ = os.Setenv("INCENT_COMMISSION_MAX", "0.1")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should reject the inverted domain", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When grid steps are below the minimum", func() {
			_ = os.Setenv("INCENT_EFFORT_STEPS", "1")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should reject the grid shape", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func clearConfigEnvVars() {
	vars := []string{
		"INCENT_CONFIG",
		"INCENT_ADDR",
		"INCENT_LOG_LEVEL",
		"INCENT_COMMISSION_MIN",
		"INCENT_COMMISSION_MAX",
		"INCENT_EFFORT_MIN",
		"INCENT_EFFORT_MAX",
		"INCENT_COMMISSION_STEPS",
		"INCENT_EFFORT_STEPS",
		"INCENT_MAX_GRID_STEPS",
		"INCENT_DEFAULT_COMMISSION",
		"INCENT_DEFAULT_EFFORT",
		"INCENT_DEFAULT_CURVE",
		"INCENT_EFFORT_COST",
		"INCENT_HISTORY_SIZE",
		"INCENT_GRID_WORKERS",
		"INCENT_OPTIMIZER_MAX_ITERS",
	}
	for _, v := range vars {
		_ = os.Unsetenv(v)
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "incent-config-*.yaml")
	if err != nil {
		t.Fatalf("failed to create temp config: %v", err)
	}
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("failed to close temp config: %v", err)
	}
	return f.Name()
}
