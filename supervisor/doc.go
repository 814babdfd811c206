// Package supervisor implements the coordinating agent: a model-driven
// router that owns a fixed member set and delegates each turn to the member
// best suited to handle it.
//
// The coordinator never executes domain capabilities itself. Its only tool is
// delegate_to_agent; members run their own tools behind their own Invoke. A
// selection outside the member set is a RoutingError and fails the turn. A
// member that terminally fails is reported back to the coordinator, which
// recovers normally and can reroute or answer on its own.
//
// The output mode controls how member turns fold into the shared transcript:
// full history keeps everything a member produced, function call and response
// traffic included (and records member failures as assistant messages), while
// last message keeps only the final reply of the whole turn.
package supervisor
