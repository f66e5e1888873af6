// Package harness runs sync scenarios between linked reference sites.
//
// A scenario names a set of sites, seeds them with posts, terms and
// provider toggles, runs a flow of metadata writes and syncs, and then
// checks assertions against the sites and the trace.
//
// # Scenario Format
//
//	name: scenario_name
//	description: "What this scenario validates"
//	sites: [source, destination]
//	setup:
//	  - site: source
//	    toggles: { post_meta: "on" }
//	    posts:
//	      - { name: hello-world, title: "Hello world!" }
//	flow:
//	  - site: source
//	    meta: { action: add, entity: post, object: hello-world, key: color, value: red }
//	  - site: source
//	    sync: { to: destination }
//	assertions:
//	  - { type: event_count, site: source, count: 1 }
//	  - { type: meta_equals, site: destination, entity: post, object: hello-world, key: color, value: red }
//
// A sync step exports every event the source recorded since its previous
// sync and applies them to the target site.
//
// # Assertion Types
//
//   - event_count: the site logged exactly count outbound events
//   - event_recorded: the site logged an event with slug (and title, if set)
//   - meta_equals: the newest value for key on the object equals value
//   - meta_absent: the object has no value for key
//   - response_status: exactly count inbound responses have status
//
// # Deterministic Testing
//
// Each site runs on its own in-memory SQLite database with sequential
// reference and event ids ("<site>-ref-N", "<site>-event-N"), so traces
// are stable for golden file comparison.
package harness
