package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

var validationMessages = map[string]string{
	"required":     "is required",
	"task_name":    "is not a supported task",
	"backend_kind": "must be one of bridge, remote, llama",
	"url":          "must be a valid URL",
	"oneof":        "has an unsupported value",
	"gte":          "must not be negative",
}

func init() {
	validate.RegisterValidation("task_name", func(fl validator.FieldLevel) bool {
		return Task(fl.Field().String()).Valid()
	})
	validate.RegisterValidation("backend_kind", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case BackendBridge, BackendRemote, BackendLlama:
			return true
		}
		return false
	})
	validate.RegisterStructValidation(validateConfig, Config{})
}

// validateConfig checks rules that span sections.
func validateConfig(sl validator.StructLevel) {
	c := sl.Current().Interface().(Config)
	switch c.Backend.Kind {
	case BackendBridge:
		if strings.TrimSpace(c.Backend.Bridge.Command) == "" {
			sl.ReportError(c.Backend.Bridge.Command, "Backend.Bridge.Command", "Command", "required", "")
		}
	case BackendRemote:
		if c.Backend.Remote.URL == "" {
			sl.ReportError(c.Backend.Remote.URL, "Backend.Remote.URL", "URL", "required", "")
		}
	case BackendLlama:
		if c.Backend.Llama.ModelPath == "" {
			sl.ReportError(c.Backend.Llama.ModelPath, "Backend.Llama.ModelPath", "ModelPath", "required", "")
		}
		if c.Task.Name != TaskChat {
			sl.ReportError(c.Task.Name, "Task.Name", "Name", "llama_chat_only", "")
		}
	}
}

// Validate reports every invalid field in one error.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg, ok := validationMessages[fe.Tag()]
		if !ok {
			switch fe.Tag() {
			case "llama_chat_only":
				msg = "must be chat when backend is llama"
			default:
				msg = "failed " + fe.Tag()
			}
		}
		msgs = append(msgs, fmt.Sprintf("%s %s", fieldPath(fe.Namespace()), msg))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// fieldPath drops the root struct name: "Config.Task.Model" -> "Task.Model".
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
