package lexicon

import (
	"fmt"

	"resumatch/internal/errors"

	"github.com/spf13/viper"
)

// keyDelimiter replaces viper's "." so keys like "node.js" or "python 3.11"
// stay flat.
const keyDelimiter = "::"

// LoadFile reads a YAML (or JSON/TOML) lexicon file. Sections present in the
// file replace the corresponding built-in table; absent sections keep the
// built-in values.
func LoadFile(path string) (*Lexicon, error) {
	v := viper.NewWithOptions(viper.KeyDelimiter(keyDelimiter))
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable, "failed to read lexicon file", err).
			WithContext("path", path)
	}

	var file Tables
	if err := v.Unmarshal(&file); err != nil {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidLexicon, "failed to decode lexicon file", err).
			WithContext("path", path)
	}

	tables := DefaultTables()
	if v.IsSet("synonyms") {
		tables.Synonyms = file.Synonyms
	}
	if v.IsSet("skills") {
		tables.Skills = file.Skills
	}
	if v.IsSet("roles") {
		tables.Roles = file.Roles
	}
	if v.IsSet("seniority") {
		tables.Seniority = file.Seniority
	}

	lex, err := New(tables, path)
	if err != nil {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidLexicon, fmt.Sprintf("invalid lexicon %s", path), err)
	}
	return lex, nil
}
