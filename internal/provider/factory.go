package provider

import "fmt"

// Constructor is a function that creates a new Generator.
type Constructor func(baseURL, apiKey string) Generator

// registry holds registered generator constructors.
var registry = map[string]Constructor{}

// Register registers a generator constructor by name.
func Register(name string, constructor Constructor) {
	registry[name] = constructor
}

// New creates a Generator for the named backend.
func New(name, baseURL, apiKey string) (Generator, error) {
	constructor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown provider: %q", name)
	}
	return constructor(baseURL, apiKey), nil
}
