package config

import (
	"fmt"
	"strings"

	"github.com/go-ini/ini"
)

// A File is a representation of an ini file with some custom convenience
// methods.
type File struct {
	instance *ini.File
	Path     string
}

// NewIni reads the file in configPath and returns a corresponding *File
// or an error if encountered.
func NewIni(configPath string) (*File, error) {
	config, err := ini.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read config file at %v, err=%v", configPath, err)
	}
	return &File{instance: config, Path: configPath}, nil
}

// Get returns a value from the section/name pair, or an error if it can't be found.
func (c *File) Get(section, name string) (string, error) {
	exists := c.instance.Section(section).HasKey(name)
	if !exists {
		return "", fmt.Errorf("missing `%s` value in [%s] section", name, section)
	}
	return c.instance.Section(section).Key(name).String(), nil
}

// GetDefault attempts to get the value in section/name, but returns the default
// if one is not found.
func (c *File) GetDefault(section, name string, defaultVal string) string {
	return c.instance.Section(section).Key(name).MustString(defaultVal)
}

// GetInt gets an integer value from section/name, or an error if it is missing
// or cannot be converted to an integer.
func (c *File) GetInt(section, name string) (int, error) {
	value, err := c.instance.Section(section).Key(name).Int()
	if err != nil {
		return 0, fmt.Errorf("missing `%s` value in [%s] section", name, section)
	}
	return value, nil
}

// GetFloat gets an float value from section/name, or an error if it is missing
// or cannot be converted to an float.
func (c *File) GetFloat(section, name string) (float64, error) {
	value, err := c.instance.Section(section).Key(name).Float64()
	if err != nil {
		return 0, fmt.Errorf("missing `%s` value in [%s] section", name, section)
	}
	return value, nil
}

// GetBool gets a boolean value from section/name. It accepts yes/no,
// true/false and 1/0, and reports whether a valid value was found.
func (c *File) GetBool(section, name string) (value bool, ok bool) {
	v, err := c.Get(section, name)
	if err != nil {
		return false, false
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "yes", "true", "1":
		return true, true
	case "no", "false", "0":
		return false, true
	}
	return false, false
}

// HasSection tells if the file has a section with the given name.
func (c *File) HasSection(section string) bool {
	_, err := c.instance.GetSection(section)
	return err == nil
}
