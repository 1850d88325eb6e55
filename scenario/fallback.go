package scenario

import "fmt"

// Canned content used when generation or parsing fails. Fallbacks are
// deterministic so the user-facing flow never halts on a malformed AI
// response; callers flag the degradation to the user separately.

// fallbackNarratives holds the canned title/description per domain.
var fallbackNarratives = map[Domain][2]string{
	DomainPhishing: {
		"Suspicious Email Alert",
		"You receive an email claiming to be from your IT department, asking you to verify your credentials through a link. The sender address looks almost, but not quite, like the real one.",
	},
	DomainRansomware: {
		"Locked Files Emergency",
		"A colleague calls in a panic: every file on their workstation has been renamed with a strange extension, and a note on screen demands payment to restore access.",
	},
	DomainSocialEngineering: {
		"Unexpected Visitor",
		"A person in a delivery uniform asks you to badge them into the server room, saying the front desk sent them up and they're running late.",
	},
	DomainDataProtection: {
		"Misdirected Spreadsheet",
		"You notice an email in your sent folder with a customer data spreadsheet attached, addressed to an external address you don't recognize.",
	},
	DomainNetworkSecurity: {
		"Unknown Device on the Network",
		"The network monitor shows a device you've never seen before communicating with several internal servers outside business hours.",
	},
	DomainOther: {
		"Security Incident Response",
		"Something is off: systems are behaving strangely and you may be witnessing the early stages of a security incident. How you respond in the next few minutes matters.",
	},
}

// Fallback constructs the deterministic placeholder scenario for a domain.
// The result is in the not_started state with one canned decision point, so
// the session can proceed end to end without generated content.
func Fallback(domain Domain, difficulty Difficulty, industry string) *Scenario {
	n := fallbackNarratives[domain]
	if n[0] == "" {
		n = fallbackNarratives[DomainOther]
	}

	s := New(domain, difficulty, n[0], n[1], industry)

	// The canned decision point is valid by construction; the error path is
	// unreachable on a fresh scenario.
	_ = s.AddDecisionPoints(&DecisionPoint{
		Prompt: "What is your first action?",
		Options: []Option{
			{Label: "Handle it yourself and move on", Feedback: "Acting alone leaves the security team blind to an active threat."},
			{Label: "Report the situation to your security team", Feedback: "Reporting early gives the people with the right tools time to respond."},
			{Label: "Ignore it unless it affects your own work", Feedback: "Threats rarely stay contained; ignoring them gives attackers time."},
		},
		CorrectIndex: 1,
	})
	return s
}

// FallbackAssessment returns the canned knowledge assessment for a domain.
func FallbackAssessment(domain Domain) []*AssessmentQuestion {
	return []*AssessmentQuestion{
		{
			Prompt: fmt.Sprintf("What is the most important first step when dealing with a %s threat?", domain),
			Options: []string{
				"Immediately shut down all systems",
				"Report the incident to your security team",
				"Try to fix the issue yourself",
				"Ignore it if it doesn't affect your work",
			},
			CorrectIndex: 1,
			Explanation:  fmt.Sprintf("When facing a %s threat, the first step should always be to report it to your security team who have the expertise to handle it properly.", domain),
		},
		{
			Prompt: fmt.Sprintf("Which of the following is a best practice for %s prevention?", domain),
			Options: []string{
				"Only check emails during certain hours",
				"Share security responsibilities with colleagues",
				"Regularly update software and security patches",
				"Use the same password for all accounts",
			},
			CorrectIndex: 2,
			Explanation:  "Regular updates ensure that known vulnerabilities are patched, significantly reducing the risk of security breaches.",
		},
		{
			Prompt: "Why is security awareness training important?",
			Options: []string{
				"It's only important for IT staff",
				"It helps all employees recognize and respond to threats",
				"It's a regulatory requirement but has little practical value",
				"It only matters for large enterprises",
			},
			CorrectIndex: 1,
			Explanation:  "Human error is often the weakest link in security; well-trained employees are an effective first line of defense.",
		},
	}
}

// FallbackFeedback returns canned decision feedback for when feedback
// generation fails.
func FallbackFeedback(correct bool) string {
	if correct {
		return "Good call. That choice follows established security practice: involve the right people early and preserve evidence of what happened."
	}
	return "That choice carries risk. In situations like this, the safer path is to pause, verify through a trusted channel, and involve your security team before acting."
}

// FallbackLearningMoment returns canned learning content for a domain.
func FallbackLearningMoment(domain Domain) string {
	return fmt.Sprintf("Key principle for %s situations: verify before you trust, and report early. Attackers rely on urgency and isolation; slowing down and involving your security team removes both advantages.", domain)
}
