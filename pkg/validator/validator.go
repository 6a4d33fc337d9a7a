package validator

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	minEmailLength    = 3
	maxEmailLength    = 255
	minPasswordLength = 8
	maxPasswordLength = 72
	maxNameLength     = 255
	maxDisplayNameLen = 100
	maxDescriptionLen = 1000
	asciiControlStart = 32
	asciiDelete       = 127

	errEmailEmptyFmt        = "email cannot be empty"
	errEmailLengthFmt       = "email must be between %d and %d characters"
	errEmailInvalidFmt      = "invalid email format"
	errPasswordMinLengthFmt = "password must be at least %d characters"
	errPasswordMaxLengthFmt = "password must not exceed %d bytes"
	errNameEmptyFmt         = "%s name cannot be empty"
	errNameMaxLengthFmt     = "%s name must not exceed %d characters"
	errNameControlCharsFmt  = "%s name cannot contain control characters"
	errNameWhitespaceFmt    = "%s name cannot start or end with whitespace"
	errDescriptionLengthFmt = "description must not exceed %d characters"
	errDisplayNameLengthFmt = "name must not exceed %d characters"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func Email(email string) error {
	if email == "" {
		return fmt.Errorf(errEmailEmptyFmt)
	}

	if len(email) < minEmailLength || len(email) > maxEmailLength {
		return fmt.Errorf(errEmailLengthFmt, minEmailLength, maxEmailLength)
	}

	if !emailRegex.MatchString(email) {
		return fmt.Errorf(errEmailInvalidFmt)
	}

	return nil
}

// Password bounds the length; bcrypt ignores bytes past 72.
func Password(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return fmt.Errorf(errPasswordMinLengthFmt, minPasswordLength)
	}

	if len(password) > maxPasswordLength {
		return fmt.Errorf(errPasswordMaxLengthFmt, maxPasswordLength)
	}

	return nil
}

func OrganizationName(name string) error {
	return entityName("organization", name)
}

func ProjectName(name string) error {
	return entityName("project", name)
}

func RoleName(name string) error {
	return entityName("role", name)
}

func GroupName(name string) error {
	return entityName("group", name)
}

// DisplayName validates an optional user name.
func DisplayName(name string) error {
	if utf8.RuneCountInString(name) > maxDisplayNameLen {
		return fmt.Errorf(errDisplayNameLengthFmt, maxDisplayNameLen)
	}
	return nil
}

func Description(description string) error {
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return fmt.Errorf(errDescriptionLengthFmt, maxDescriptionLen)
	}
	return nil
}

func entityName(kind, name string) error {
	if name == "" {
		return fmt.Errorf(errNameEmptyFmt, kind)
	}

	if utf8.RuneCountInString(name) > maxNameLength {
		return fmt.Errorf(errNameMaxLengthFmt, kind, maxNameLength)
	}

	if strings.TrimSpace(name) != name {
		return fmt.Errorf(errNameWhitespaceFmt, kind)
	}

	for _, char := range name {
		if char < asciiControlStart || char == asciiDelete {
			return fmt.Errorf(errNameControlCharsFmt, kind)
		}
	}

	return nil
}
