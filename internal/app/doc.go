// Package app runs the editor: it polls an event source once per frame,
// dispatches every event, and renders the text sink.
//
// The Editor installs the default handlers on its dispatcher:
//
//   - quit events and the configured quit keys stop the loop
//   - printable key presses without command modifiers are typed
//   - Enter, Tab and Backspace edit the text
//   - resize events record the display size
//   - paste events insert their text
//
// Scripts loaded with LoadScripts add handlers of their own. Handler
// failures are logged and never stop the loop.
package app
