package textnorm

// Step is a single string transformation in a normalisation pipeline.
type Step func(string) string

// Apply runs s through the given steps in order.
func Apply(s string, steps ...Step) string {
	for _, step := range steps {
		s = step(s)
	}
	return s
}

// Compose builds a reusable pipeline from steps.
// Preferred over repeated Apply calls when the same chain runs for many values.
func Compose(steps ...Step) Step {
	return func(s string) string {
		return Apply(s, steps...)
	}
}
