// Package notifier provides notification interfaces and implementations
// for announcing new Meetup events.
//
// The notifier package supports posting announcements to a Telegram chat
// and to Twitter. It handles OAuth authentication, rate limiting, and
// message formatting for each channel.
package notifier
