// Package internal drives the mylang parser over files on disk.
//
// Engine: parses a file, or each mylang block of a markdown document, and
// converts the compilation results into Reports of Issues positioned in
// the file.
//
// Cache: keeps the reports of files whose content and modification time
// did not change, invalidated as a whole when a dependency such as the
// configuration file changes.
//
// Watching: StartWatching re-parses accepted files as they are written.
//
// Usage:
//
//	engine, err := internal.NewEngine(internal.Options{Markdown: true})
//	if err != nil {
//	    // handle error
//	}
//
//	reports, err := engine.Run("path/to/program.my")
//	if err != nil {
//	    // handle error
//	}
//
//	for _, issue := range types.Issues(reports) {
//	    fmt.Printf("%s: %s\n", issue.Start, issue.Message)
//	}
package internal
