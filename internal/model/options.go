package model

// Options configures the behaviour of a Store. Options are constructed by the
// public adapter in pkg/model and passed into NewStoreWithOptions.
type Options struct {
	Labeler func(string) string
}

func defaultOptions() Options {
	return Options{
		Labeler: DefaultLabeler,
	}
}
