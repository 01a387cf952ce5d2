// Package events provides the event envelope and emitter abstractions used to
// announce domain changes to other processes.
//
// Producers build an Event and hand it to an EventEmitter without knowing
// whether it is dispatched in-process (InMemoryEventEmitter) or published to
// a broker. Consumers implement EventHandler.
package events
