package utils

import (
	"bytes"
	"fmt"
	"log"
	"reflect"
	"strings"

	"github.com/BurntSushi/toml"
)

// CheckConfigError checks configs for errors, crashes app if there's an error
func CheckConfigError(cfg fmt.Stringer, e error, filename string) {
	if e != nil {
		log.Println(e)
		log.Println()
		log.Fatalf("error: could not parse the config file '%s'. Check that the correct type of file was passed in.\n", filename)
	}
}

// ParseTomlConfig reads a toml config file into the passed in struct pointer
func ParseTomlConfig(filename string, dest interface{}) error {
	_, e := toml.DecodeFile(filename, dest)
	if e != nil {
		return fmt.Errorf("could not decode toml config file '%s': %s", filename, e)
	}
	return nil
}

// LogConfig logs out the config file
func LogConfig(cfg fmt.Stringer) {
	log.Println("configs:")
	for _, line := range strings.Split(strings.TrimSuffix(cfg.String(), "\n"), "\n") {
		log.Printf("     %s", line)
	}
}

// StructString is a helper method that serializes configs; the transform keys are always flattened,
// i.e specify the key meant to be on an inner object at a top level key on the transform map
func StructString(s interface{}, indentLevel uint8, transforms map[string]func(interface{}) interface{}) string {
	var buf bytes.Buffer
	numFields := reflect.TypeOf(s).NumField()
	for i := 0; i < numFields; i++ {
		field := reflect.TypeOf(s).Field(i)
		fieldName := field.Name
		fieldDisplayName := field.Tag.Get("toml")
		if fieldDisplayName == "" {
			fieldDisplayName = fieldName
		}

		// set the transformation function
		transformFn := passthrough
		if fn, ok := transforms[fieldDisplayName]; ok {
			transformFn = fn
		}

		if reflect.ValueOf(s).Field(i).CanInterface() {
			currentField := reflect.ValueOf(s).Field(i)
			value := currentField.Interface()
			kind := currentField.Kind()
			if kind == reflect.Ptr {
				derefField := reflect.Indirect(currentField)
				if derefField.IsValid() {
					value = derefField.Interface()
					kind = derefField.Kind()
				}
			}

			for indentIdx := 0; indentIdx < int(indentLevel); indentIdx++ {
				buf.WriteString("    ")
			}
			if kind == reflect.Struct {
				subString := StructString(value, indentLevel+1, transforms)
				buf.WriteString(fmt.Sprintf("%s:\n%s", fieldDisplayName, subString))
			} else {
				transformedValue := transformFn(value)
				buf.WriteString(fmt.Sprintf("%s: %+v\n", fieldDisplayName, transformedValue))
			}
		}
	}
	return buf.String()
}

// passthrough returns the input
func passthrough(i interface{}) interface{} {
	return i
}

// Hide returns an empty string, used to redact secrets from logged configs
func Hide(i interface{}) interface{} {
	return ""
}
