// Package commission is the commission engine: it defines per-operator rate
// tables inside a scheme, enforces who may write which rate and that senior
// roles never earn less than their juniors, and computes payouts.
//
// Every operation authorises in two steps. The coarse policy answers whether
// the actor's role may perform the action on commissions at all; the scheme
// service answers whether the actor may touch this particular scheme. Rate
// fields are then checked against the role hierarchy.
package commission
