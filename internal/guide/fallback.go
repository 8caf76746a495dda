package guide

import (
	"fmt"
	"strings"
)

// Deterministic, network-free substitutes used whenever the model gateway is
// unavailable or fails. All functions here are pure.

// FallbackOpening picks an opening question keyed on the task title.
func FallbackOpening(taskTitle string) string {
	title := strings.ToLower(taskTitle)
	switch {
	case strings.Contains(title, "write") || strings.Contains(title, "plan"):
		return "What does the finished version of this task look like to you?"
	case strings.Contains(title, "learn") || strings.Contains(title, "study"):
		return "What's the very first physical action you would need to take?"
	default:
		return "What part of this feels the most difficult or uncertain right now?"
	}
}

var fallbackFollowUps = []string{
	"That's helpful context. What would be the very next concrete step you could take?",
	"Interesting. What part of what you described feels most achievable right now?",
	"I can see you're thinking this through. What resources or support do you already have available?",
	"That makes sense. If you could only focus on one aspect to start, what would it be?",
	"Good insight. What would success look like for just the first small piece of this?",
	"That's a great start. What would need to happen for you to feel confident taking the first step?",
}

// FallbackFollowUp returns the follow-up question for the given transcript
// length, indexed so consecutive turns do not repeat the same line until the
// list is exhausted.
func FallbackFollowUp(messageCount int) string {
	idx := messageCount - 2
	if idx < 0 {
		idx = 0
	}
	if idx >= len(fallbackFollowUps) {
		idx = len(fallbackFollowUps) - 1
	}
	return fallbackFollowUps[idx]
}

// FallbackPlan returns a generic but title-referencing plan so the protocol
// can always terminate in something usable.
func FallbackPlan(taskTitle string) GeneratedPlan {
	return GeneratedPlan{
		Tasks: []GeneratedTask{
			{
				Title:         "Define the first concrete step",
				Description:   fmt.Sprintf("Based on our discussion about %q, identify the very first action you can take.", taskTitle),
				Priority:      "high",
				EstimatedTime: "15-30 minutes",
			},
			{
				Title:         "Gather necessary resources",
				Description:   "Collect the tools, information, or materials you identified as needed.",
				Priority:      "medium",
				EstimatedTime: "30-60 minutes",
			},
			{
				Title:         "Create a detailed plan",
				Description:   "Break down the main task into smaller, specific actions based on what you learned about yourself.",
				Priority:      "medium",
				EstimatedTime: "45 minutes",
			},
		},
		Summary: "A basic action plan to help you get started. Customize these tasks based on your specific situation.",
	}
}
