// Package key provides the platform-neutral key codes and modifier masks
// carried by key events, plus parsing of key specifications used in
// configuration and scripts.
//
// A key press is described by three values:
//
//   - Key: the key code. Printable characters use KeyRune.
//   - Modifier: the bitmask of held modifier keys (Ctrl, Alt, Shift, Meta).
//   - the text the press produced, which lives on the event, not here.
//
// # Key Specifications
//
// Specifications can be written as:
//
//   - Simple keys: "a", "A", "1", "Enter", "Escape"
//   - With modifiers: "Ctrl+S", "Alt+F4", "Ctrl+Shift+P"
//   - Vim-style: "<C-s>", "<A-f>", "<C-S-p>", "<CR>", "<Esc>"
package key
