package rentbook

import "testing"

func TestJSONObjectWriter(t *testing.T) {
	testCases := []struct {
		name  string
		build func(w *jsonObjectWriter)
		want  string
	}{
		{
			name:  "empty",
			build: func(w *jsonObjectWriter) {},
			want:  `{}`,
		},
		{
			name: "keeps insertion order",
			build: func(w *jsonObjectWriter) {
				w.Append("z", 1).Append("a", "x")
			},
			want: `{"z":1,"a":"x"}`,
		},
		{
			name: "optional skips zero values",
			build: func(w *jsonObjectWriter) {
				w.Append("a", 0)
				w.Optional("b", "")
				w.Optional("c", []string{})
				w.Optional("d", "set")
			},
			want: `{"a":0,"d":"set"}`,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var w jsonObjectWriter
			tc.build(&w)
			got, err := w.MarshalJSON()
			if err != nil {
				t.Fatalf("MarshalJSON() error = %v", err)
			}
			if string(got) != tc.want {
				t.Errorf("MarshalJSON() = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestJSONObjectWriterError(t *testing.T) {
	var w jsonObjectWriter
	w.Append("bad", func() {})
	w.Append("ignored", 1)
	if _, err := w.MarshalJSON(); err == nil {
		t.Error("MarshalJSON() expected an error for an unmarshalable value")
	}
}
