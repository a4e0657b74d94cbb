// Package cli implements the command-line interface.
//
// The root command runs the long-polling chat bot. The announce
// subcommand does a one-shot check for new Meetup events and posts
// announcements, and the events subcommand prints the upcoming events
// to stdout for scripting.
package cli
