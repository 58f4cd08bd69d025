/*
Package hierarchy implements the reseller role hierarchy.

Roles are ordered by an integer level where a lower level is more senior:

	superadmin(0) > admin(1) > whitelabel(2) > masterdistributor(3)
	  > distributor(4) > retailer(5) > customer(6)

The ordering drives two policies:

  - Rate ordering: a senior role's commission rate must never be lower than a
    junior role's rate, considering only rates that are set.
  - Field editing: a caller may write rates only for roles strictly junior to
    its own.

A Hierarchy is immutable once built and safe for concurrent use. Build it once
at start-up with Default or New and pass it to the services that need it.
*/
package hierarchy
