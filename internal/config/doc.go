// Package config loads keyclack's two configuration sources.
//
// Settings control the application itself (voice count, queue size, log
// level). They are layered, higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  4. Command Line Flags      │  ← Highest priority
//	├─────────────────────────────┤
//	│  3. Environment Variables   │  ← KEYCLACK_*
//	├─────────────────────────────┤
//	│  2. Settings File           │  ← ~/.config/keyclack/settings.toml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// Flags are applied by the caller after LoadSettings returns.
//
// A sound pack is a directory holding a Mechvibes-style config.json and
// the sample files it references. FindPack locates the config by trying
// a fixed, ordered list of relative directories; ParsePack reads it.
//
// # Sub-packages
//
//   - loader: settings file parsing (TOML, YAML) and environment variables
package config
