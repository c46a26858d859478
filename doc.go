// Package spe is a client for the OWON SPE series of bench power supplies.
//
// The instrument speaks a half-duplex, line-oriented ASCII protocol over a
// serial line. Every call writes one command terminated by CR LF and, for
// queries, reads exactly one reply line:
//
//	*IDN?            -> OWON,SPE6103,2406xxxx,FV:V1.0.2
//	MEAS:ALL:INFO?   -> 4.987,0.514,2.560,OFF,OFF,OFF,1
//	VOLT 5           (no reply)
//
// Commands are described by Operation values. An Operation knows its wire
// form and how to decode its reply; the engine that writes, flushes and
// reads the line knows nothing about the instrument.
//
// # Blocking and context-aware clients
//
// SPE wraps any io.ReadWriter and blocks the calling goroutine for the
// duration of each call. AsyncSPE wraps a port with dedicated reader and
// writer goroutines so that each call can be bounded by a context.Context.
// Both run the same engine and return the same results and errors.
//
//	s, err := spe.Open(spe.DefaultSerialConfig("/dev/ttyUSB0"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Close()
//
//	info, err := s.MeasureAllInfo()
//
// # Errors
//
// A call fails in one of two ways. errors.Is(err, ErrIO) reports a
// transport failure; the transport should not be used again. errors.Is(err,
// ErrUnexpectedData) reports a reply that did not decode; the client stays
// usable. Nothing is retried internally.
//
// # Concurrency
//
// A client owns its transport. Calls on one client are serialised, so a
// reply is always read by the call that sent its command.
package spe
