package controllers

import (
	"github.com/stylesphere/StyleSphere/referral"
)

var (
	referralService   *referral.Service
	referralGenerator *referral.Generator
	referralStore     *referral.Store
)

// InitReferralService wires the referral core into the HTTP layer. Called
// once at startup, after the database is up.
func InitReferralService(svc *referral.Service, gen *referral.Generator, store *referral.Store) {
	referralService = svc
	referralGenerator = gen
	referralStore = store
}
