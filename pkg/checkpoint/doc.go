// Package checkpoint records where the last run of each scrape mode got to.
//
// A run never resumes automatically. When a run is paused or fails, its
// checkpoint keeps the last fully processed group and page (or author ID)
// together with the success and failure counts, so the user can start a
// narrower run by hand. A completed run deletes its checkpoint.
//
// Checkpoints are stored in platform-specific data directories:
//   - Linux: $XDG_DATA_HOME/aozorascraper/checkpoints/ or ~/.local/share/aozorascraper/checkpoints/
//   - macOS: ~/Library/Application Support/aozorascraper/checkpoints/
//   - Windows: %APPDATA%\aozorascraper\checkpoints\
package checkpoint
