package lua

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/scribe/internal/event"
	"github.com/dshills/scribe/internal/event/match"
	"github.com/dshills/scribe/internal/input/key"
)

// Field names as scripts see them. Everything else uses the trait name.
const luaMods = "mods"

func luaFieldName(trait string) string {
	if trait == event.FieldModifiers {
		return luaMods
	}
	return trait
}

// toLuaValue converts a trait value to a Lua value.
func toLuaValue(v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case string:
		return lua.LString(val)
	case int:
		return lua.LNumber(val)
	case bool:
		return lua.LBool(val)
	case key.Key:
		return lua.LString(val.String())
	case key.Modifier:
		return lua.LString(val.String())
	default:
		return lua.LString(fmt.Sprint(val))
	}
}

// eventTable converts an event to a table with a kind field and one field
// per literal trait.
func eventTable(L *lua.LState, ev event.Event) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("kind", lua.LString(ev.Kind()))
	for _, tr := range ev.Traits() {
		if tr.Field.Mode() != event.Literal {
			continue
		}
		t.RawSetString(luaFieldName(tr.Name), toLuaValue(tr.Field.Value()))
	}
	return t
}

// patternFromLua builds a pattern of the given kind from nil, a key
// specification string (key.down only) or a pattern table.
func patternFromLua(kind event.Kind, lv lua.LValue) (event.Event, error) {
	pattern, ok := event.Empty(kind)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	switch v := lv.(type) {
	case *lua.LNilType:
		return pattern, nil
	case lua.LString:
		if kind != event.KindKeyDown {
			return nil, fmt.Errorf("%w: %s pattern cannot be a string", ErrInvalidPattern, kind)
		}
		chord, err := key.Parse(string(v))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
		}
		return event.KeyDownFromChord(chord), nil
	case *lua.LTable:
		var err error
		v.ForEach(func(k, val lua.LValue) {
			if err != nil {
				return
			}
			name, ok := k.(lua.LString)
			if !ok {
				err = fmt.Errorf("%w: non-string field %v", ErrInvalidPattern, k)
				return
			}
			err = setPatternField(pattern, string(name), val)
		})
		if err != nil {
			return nil, err
		}
		return pattern, nil
	default:
		return nil, fmt.Errorf("%w: expected nil, string or table, got %s", ErrInvalidPattern, lv.Type())
	}
}

func setPatternField(pattern event.Event, name string, lv lua.LValue) error {
	if name == "mute" {
		mute := lua.LVAsBool(lv)
		switch p := pattern.(type) {
		case *event.UnknownEvent:
			p.Mute = mute
		case *event.QuitEvent:
			p.Mute = mute
		case *event.KeyDownEvent:
			p.Mute = mute
		case *event.ResizeEvent:
			p.Mute = mute
		case *event.PasteEvent:
			p.Mute = mute
		}
		return nil
	}

	var err error
	switch p := pattern.(type) {
	case *event.KeyDownEvent:
		switch name {
		case event.FieldKey:
			p.Key, err = keySlot(lv)
		case luaMods:
			p.Modifiers, err = modifierSlot(lv)
		case event.FieldChar:
			p.Char, err = stringSlot(lv)
		default:
			err = unknownField(pattern, name)
		}
	case *event.ResizeEvent:
		switch name {
		case event.FieldWidth:
			p.Width, err = intSlot(lv)
		case event.FieldHeight:
			p.Height, err = intSlot(lv)
		default:
			err = unknownField(pattern, name)
		}
	case *event.PasteEvent:
		if name != event.FieldText {
			return unknownField(pattern, name)
		}
		p.Text, err = stringSlot(lv)
	default:
		err = unknownField(pattern, name)
	}
	if err != nil {
		return fmt.Errorf("%w: field %q: %v", ErrInvalidPattern, name, err)
	}
	return nil
}

func unknownField(pattern event.Event, name string) error {
	return fmt.Errorf("%w: %s has no field %q", ErrInvalidPattern, pattern.Kind(), name)
}

// matcherOf returns the matcher held by a matcher userdata.
func matcherOf(lv lua.LValue) (match.Matcher, bool) {
	ud, ok := lv.(*lua.LUserData)
	if !ok {
		return nil, false
	}
	m, ok := ud.Value.(match.Matcher)
	return m, ok
}

func stringSlot(lv lua.LValue) (event.Slot[string], error) {
	if m, ok := matcherOf(lv); ok {
		return event.Match[string](m), nil
	}
	s, ok := lv.(lua.LString)
	if !ok {
		return event.Slot[string]{}, fmt.Errorf("expected string or matcher, got %s", lv.Type())
	}
	return event.Set(string(s)), nil
}

func intSlot(lv lua.LValue) (event.Slot[int], error) {
	if m, ok := matcherOf(lv); ok {
		return event.Match[int](m), nil
	}
	n, ok := lv.(lua.LNumber)
	if !ok {
		return event.Slot[int]{}, fmt.Errorf("expected number or matcher, got %s", lv.Type())
	}
	return event.Set(int(n)), nil
}

func keySlot(lv lua.LValue) (event.Slot[key.Key], error) {
	if m, ok := matcherOf(lv); ok {
		return event.Match[key.Key](m), nil
	}
	s, ok := lv.(lua.LString)
	if !ok {
		return event.Slot[key.Key]{}, fmt.Errorf("expected key name or matcher, got %s", lv.Type())
	}
	k, ok := key.FromName(string(s))
	if !ok {
		return event.Slot[key.Key]{}, fmt.Errorf("unknown key %q", string(s))
	}
	return event.Set(k), nil
}

func modifierSlot(lv lua.LValue) (event.Slot[key.Modifier], error) {
	if m, ok := matcherOf(lv); ok {
		return event.Match[key.Modifier](m), nil
	}
	s, ok := lv.(lua.LString)
	if !ok {
		return event.Slot[key.Modifier]{}, fmt.Errorf("expected modifier list or matcher, got %s", lv.Type())
	}
	m, err := key.ParseModifierList(string(s))
	if err != nil {
		return event.Slot[key.Modifier]{}, err
	}
	return event.Set(m), nil
}
