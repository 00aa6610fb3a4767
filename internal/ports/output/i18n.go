package output

// T looks up localized reply texts. Keys are message ids such as
// "reply.joined" or "errors.capacity_exceeded"; data fills template fields
// and may be nil.
type T interface {
	T(locale, key string, data map[string]any) string
}
