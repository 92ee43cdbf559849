package trace

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/scribe/internal/event"
	"github.com/dshills/scribe/internal/input/key"
)

// Encode returns the JSON form of a complete event without record metadata.
func Encode(ev event.Event) (string, error) {
	if !event.IsComplete(ev) {
		return "", fmt.Errorf("%w: %s", ErrIncomplete, event.Describe(ev))
	}

	line, err := sjson.Set("{}", "kind", ev.Kind().String())
	if err != nil {
		return "", err
	}
	for _, tr := range ev.Traits() {
		line, err = sjson.Set(line, "fields."+tr.Name, encodeValue(tr.Field.Value()))
		if err != nil {
			return "", err
		}
	}
	if ev.Muted() {
		if line, err = sjson.Set(line, "mute", true); err != nil {
			return "", err
		}
	}
	return line, nil
}

func encodeValue(v any) any {
	switch x := v.(type) {
	case key.Key:
		return x.String()
	case key.Modifier:
		return x.String()
	default:
		return v
	}
}

// Decode parses a line produced by Encode or a Recorder.
func Decode(line string) (event.Event, error) {
	if !gjson.Valid(line) {
		return nil, ErrMalformed
	}
	rec := gjson.Parse(line)
	if !rec.IsObject() {
		return nil, ErrMalformed
	}

	kind := event.Kind(rec.Get("kind").String())
	ev, ok := event.Empty(kind)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	fields := rec.Get("fields")
	for _, name := range ev.Traits().Names() {
		if !fields.Get(name).Exists() {
			return nil, fmt.Errorf("%w: missing field %q", ErrMalformed, name)
		}
	}
	mute := rec.Get("mute").Bool()

	switch e := ev.(type) {
	case *event.UnknownEvent:
		e.Mute = mute
	case *event.QuitEvent:
		e.Mute = mute
	case *event.KeyDownEvent:
		k, ok := key.FromName(fields.Get(event.FieldKey).String())
		if !ok {
			return nil, fmt.Errorf("%w: unknown key %q", ErrMalformed, fields.Get(event.FieldKey).String())
		}
		e.Key = event.Set(k)
		e.Modifiers = event.Set(key.ParseModifiers(fields.Get(event.FieldModifiers).String()))
		e.Char = event.Set(fields.Get(event.FieldChar).String())
		e.Mute = mute
	case *event.ResizeEvent:
		e.Width = event.Set(int(fields.Get(event.FieldWidth).Int()))
		e.Height = event.Set(int(fields.Get(event.FieldHeight).Int()))
		e.Mute = mute
	case *event.PasteEvent:
		e.Text = event.Set(fields.Get(event.FieldText).String())
		e.Mute = mute
	}
	return ev, nil
}
