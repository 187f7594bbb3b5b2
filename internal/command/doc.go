// Package command turns chat commands into TaskService calls and renders the
// Russian replies users see. It knows nothing about the chat transport: the
// Telegram listener hands it a Request and sends back whatever reply it
// returns.
package command
