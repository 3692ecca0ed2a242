// Package services implements the SDK's two lifecycles on top of the crypto,
// chain and coordinator packages:
//
//   - StateService: schema registration, private-state create/update,
//     proof generation and submission.
//   - JobService: job type registration, confidential job submission,
//     status polling and result retrieval.
//
// Both services share a client-owned Registry. When no coordinator is
// configured, jobs are tracked in a jobs.Repository (the mock path).
package services
