// Package session owns the module's lifetime against one host.
//
// Ownership boundary:
// - startup parameter validation
// - transport setup over the descriptors the host passed at launch
// - handshake (window list request, startup notification)
// - the read, dispatch, present loop and its cancellation
// - raw packet capture and capture replay input
package session
