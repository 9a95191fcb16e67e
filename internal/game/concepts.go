package game

// DefaultConcepts is the learn-mode content used when the backend does not
// serve its own.
func DefaultConcepts() []Concept {
	return []Concept{
		{
			Title: "Commitment",
			Description: "Your secret number is encrypted and cryptographically bound. A hash proves the " +
				"commitment exists without revealing the number. You cannot change your secret without " +
				"breaking the commitment.",
			KeyPoints: []string{
				"Encrypted data stays hidden",
				"Hash proves commitment exists",
				"Can't change mind later",
				"Data is committed before computation starts",
			},
		},
		{
			Title: "Reveal",
			Description: "After the game, the encrypted commitment is decrypted to reveal the secret. " +
				"A timestamp proves when the decision was made. Only authorized parties see the data.",
			KeyPoints: []string{
				"Decrypt only when authorized",
				"Timestamp proves decision timing",
				"Shows secret to verify claim",
				"Results are revealed only to authorized users",
			},
		},
		{
			Title: "Verification",
			Description: "The commitment hash is verified against the decrypted data. If they match, " +
				"the committer was honest. If not, they cheated. Cryptography proves this without a " +
				"central authority.",
			KeyPoints: []string{
				"Hash matches = honest",
				"Hash differs = cheated",
				"Cryptography proves truth",
				"Signatures guarantee data integrity",
			},
		},
	}
}

// Overview is the closing summary shown after the individual concepts.
const Overview = `The three pillars of the privacy model:

1. ENCRYPTION (confidentiality): data is encrypted at rest and in transit,
   and only authorized parties can decrypt it. Here, your secret number.
2. COMMITMENT (proof of intent): prove you know something without revealing it.
   Here, the commitment hash shown during guessing.
3. VERIFICATION (integrity): prove the data was not changed.
   Here, the hash check performed at reveal time.`
