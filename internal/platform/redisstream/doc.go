// Package redisstream carries events over a Redis stream using rueidis.
//
// Emitter appends each event to the stream under the "event" field. Consumer
// reads the stream through a consumer group and acknowledges an entry only
// after its handler succeeded, so delivery is at-least-once.
package redisstream
