// Package telegram connects the planner to the Telegram Bot API.
//
// Sender implements delivery.Sink on top of sendMessage. Listener long-polls
// for updates and hands chat commands to a CommandHandler, replying in the
// chat the command came from.
package telegram
