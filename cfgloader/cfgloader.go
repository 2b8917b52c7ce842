// Package cfgloader loads and validates the configuration of a docrepo deployment.
//
// Configuration is read from a YAML file, ${VAR} references are expanded from the
// environment (optionally seeded from a .env file), `default` tags fill missing
// fields and `validate` tags are checked with go-playground/validator.
package cfgloader

import (
	"fmt"
	"os"
	"reflect"
	"slices"
	"strings"

	"github.com/code19m/errx"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rise-and-shine/docrepo/logger"
	"gopkg.in/yaml.v3"
)

const (
	EnvProduction = "production"
	EnvStaging    = "staging"
	EnvDev        = "dev"
	EnvLocal      = "local"
	EnvTest       = "test"
)

// CodeInvalidConfig is the error code of every loading failure.
const CodeInvalidConfig = "INVALID_CONFIG"

// Load reads the configuration into a T.
//
// Without WithPath the file is ./config/${ENVIRONMENT}.yaml, and ENVIRONMENT must be
// one of production, staging, dev, local or test.
//
// Example:
//
//	type Config struct {
//	    Host string `yaml:"host" validate:"required"`
//	    Port int    `yaml:"port" default:"5432"`
//	}
func Load[T any](opts ...Option) (T, error) {
	var config T

	o := Options{}
	for _, opt := range opts {
		opt(&o)
	}

	if reflect.ValueOf(&config).Elem().Kind() == reflect.Ptr {
		return config, fail("config type must not be a pointer", nil)
	}

	_ = godotenv.Load(o.EnvFiles...)

	path := o.Path
	if path == "" {
		env := os.Getenv("ENVIRONMENT")
		if !slices.Contains([]string{EnvProduction, EnvStaging, EnvDev, EnvLocal, EnvTest}, env) {
			return config, fail(
				"ENVIRONMENT is not set or invalid, choices are: production, staging, dev, local, test",
				errx.D{"environment": env},
			)
		}
		path = fmt.Sprintf("./config/%s.yaml", env)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return config, errx.Wrap(err,
			errx.WithCode(CodeInvalidConfig), errx.WithDetails(errx.D{"path": path}))
	}

	if err = yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &config); err != nil {
		return config, errx.Wrap(err,
			errx.WithCode(CodeInvalidConfig), errx.WithDetails(errx.D{"path": path}))
	}

	if err = defaults.Set(&config); err != nil {
		return config, errx.Wrap(err, errx.WithCode(CodeInvalidConfig))
	}

	if err = validate(&config); err != nil {
		return config, err
	}

	if !o.Silent {
		logger.Named("cfgloader").Infof("loaded config from %s:\n%s", path, render(config))
	}
	return config, nil
}

// MustLoad is Load that exits the process when the configuration cannot be loaded.
func MustLoad[T any](opts ...Option) T {
	config, err := Load[T](opts...)
	if err != nil {
		log := logger.Named("cfgloader")
		log.Errorx(err)
		_ = log.Sync()
		os.Exit(1)
	}
	return config
}

func validate(config any) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	err := v.Struct(config)
	if err == nil {
		return nil
	}

	errs, ok := err.(validator.ValidationErrors) //nolint:errorlint // validator returns the type directly
	if !ok {
		return errx.Wrap(err, errx.WithCode(CodeInvalidConfig))
	}

	failed := make([]string, 0, len(errs))
	for _, fe := range errs {
		tag := fe.Tag()
		if fe.Param() != "" {
			tag += "=" + fe.Param()
		}
		failed = append(failed, fmt.Sprintf("%s: %s", fe.Namespace(), tag))
	}
	return fail("invalid config fields", errx.D{"fields": strings.Join(failed, ", ")})
}

func fail(msg string, details errx.D) error {
	return errx.New(msg,
		errx.WithCode(CodeInvalidConfig),
		errx.WithType(errx.T_Validation),
		errx.WithDetails(details),
	)
}
