package command

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/taskplanner/internal/domain"
)

// argSeparator splits command arguments: "/add a; b; c; d".
const argSeparator = "; "

// errFormat marks arguments that do not have the expected shape.
var errFormat = errors.New("malformed command arguments")

// AddRequest holds the raw /add arguments.
type AddRequest struct {
	Title       string `validate:"required,max=255"`
	Description string
	Priority    string `validate:"required,oneof=низкий средний высокий"`
	DueDate     string `validate:"required,datetime=2006-01-02 15:04"`
}

// EditRequest holds the raw /edit arguments.
type EditRequest struct {
	TaskID int64  `validate:"gt=0"`
	Field  string `validate:"required,oneof=title description priority status duedate"`
	Value  string
}

// DeleteRequest holds the /delete argument.
type DeleteRequest struct {
	TaskID int64 `validate:"gt=0"`
}

func splitArgs(args string) []string {
	if strings.TrimSpace(args) == "" {
		return nil
	}
	return strings.Split(args, argSeparator)
}

// ParseAdd reads "title; description; priority; due". Extra parts are ignored.
func ParseAdd(args string) (AddRequest, error) {
	parts := splitArgs(args)
	if len(parts) < 4 {
		return AddRequest{}, errFormat
	}
	return AddRequest{
		Title:       strings.TrimSpace(parts[0]),
		Description: strings.TrimSpace(parts[1]),
		Priority:    strings.ToLower(strings.TrimSpace(parts[2])),
		DueDate:     strings.TrimSpace(parts[3]),
	}, nil
}

// ParseEdit reads "id; field; value".
func ParseEdit(args string) (EditRequest, error) {
	parts := splitArgs(args)
	if len(parts) < 3 {
		return EditRequest{}, errFormat
	}
	id, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return EditRequest{}, errFormat
	}
	return EditRequest{
		TaskID: id,
		Field:  strings.ToLower(strings.TrimSpace(parts[1])),
		Value:  strings.TrimSpace(parts[2]),
	}, nil
}

// ParseDelete reads a single task id.
func ParseDelete(args string) (DeleteRequest, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(args), 10, 64)
	if err != nil {
		return DeleteRequest{}, errFormat
	}
	return DeleteRequest{TaskID: id}, nil
}

// validationMessage names the first failed field in user terms.
func validationMessage(err error, fallback string) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fallback
	}
	fe := verrs[0]
	switch fe.Field() {
	case "Title":
		if fe.Tag() == "max" {
			return msgTitleTooLong
		}
		return msgEmptyTitle
	case "Priority":
		return msgPriority
	case "DueDate":
		return msgDueDate
	case "Field":
		return msgInvalidField
	}
	return fallback
}

// domainMessage translates domain validation errors.
func domainMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, domain.ErrEmptyTitle):
		return msgEmptyTitle, true
	case errors.Is(err, domain.ErrTitleTooLong):
		return msgTitleTooLong, true
	case errors.Is(err, domain.ErrInvalidPriority):
		return msgPriority, true
	case errors.Is(err, domain.ErrInvalidStatus):
		return msgStatus, true
	case errors.Is(err, domain.ErrInvalidDueDate):
		return msgDueDate, true
	case errors.Is(err, domain.ErrInvalidField):
		return msgInvalidField, true
	}
	return "", false
}
