package analysis

import (
	stderrors "errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/repomap/pkg/errors"
)

// payloadValidate is the validator instance for payload types.
// Initialized in init() with the repository-specific rules.
var payloadValidate *validator.Validate

func init() {
	payloadValidate = validator.New(validator.WithRequiredStructEnabled())
	_ = payloadValidate.RegisterValidation("relpath", func(fl validator.FieldLevel) bool {
		return errors.ValidatePath(fl.Field().String()) == nil
	})
	_ = payloadValidate.RegisterValidation("fileid", func(fl validator.FieldLevel) bool {
		return errors.ValidateFileID(fl.Field().String()) == nil
	})
	_ = payloadValidate.RegisterValidation("httpurl", func(fl validator.FieldLevel) bool {
		return errors.ValidateURL(fl.Field().String()) == nil
	})
}

// Validate checks the structural invariants the builders rely on.
// The first violation is returned as an *errors.Error; field-level failures
// carry the validator error as cause.
func (p *Payload) Validate() error {
	if err := payloadValidate.Struct(p); err != nil {
		return fieldError(err)
	}

	seen := make(map[string]int, len(p.Files))
	for i, f := range p.Files {
		if j, ok := seen[f.ID]; ok {
			return errors.New(errors.ErrCodeDuplicateID,
				"file id %q used by file_structure[%d] (%s) and file_structure[%d] (%s)",
				f.ID, j, p.Files[j].Path, i, f.Path)
		}
		seen[f.ID] = i
	}
	return nil
}

// ValidateEntry validates a single file entry.
func ValidateEntry(f FileEntry) error {
	if err := payloadValidate.Struct(f); err != nil {
		return fieldError(err)
	}
	return nil
}

// fieldError converts validator output into a coded error naming the field.
func fieldError(err error) error {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) || len(verrs) == 0 {
		return errors.Wrap(errors.ErrCodeInvalidPayload, err, "validate payload")
	}

	fe := verrs[0]
	code := errors.ErrCodeInvalidPayload
	msg := fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag())

	switch fe.Tag() {
	case "required":
		msg = fmt.Sprintf("%s is required", fe.Namespace())
	case "relpath":
		code = errors.ErrCodeInvalidPath
		if cause := errors.ValidatePath(fmt.Sprint(fe.Value())); cause != nil {
			msg = fmt.Sprintf("%s: %s", fe.Namespace(), errors.UserMessage(cause))
		}
	case "fileid":
		if cause := errors.ValidateFileID(fmt.Sprint(fe.Value())); cause != nil {
			msg = fmt.Sprintf("%s: %s", fe.Namespace(), errors.UserMessage(cause))
		}
	case "httpurl":
		code = errors.ErrCodeInvalidInput
		msg = fmt.Sprintf("%s must be an http(s) URL", fe.Namespace())
	case "gte":
		msg = fmt.Sprintf("%s must be non-negative", fe.Namespace())
	}
	return errors.Wrap(code, err, "%s", msg)
}
