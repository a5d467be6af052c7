// Package defaults holds the files written into a fresh knowledge base.
package defaults

// Guidelines is the initial content of LIBRARIAN.md. It is written only
// when the file does not exist, so user edits survive restarts.
const Guidelines = `# Librarian Guidelines

This directory is a persistent memory shared across conversations.
Treat it as a small library that you maintain.

## Organize by subject

- File entries under folders named after what they are about
  (` + "`" + `frontend/` + "`" + `, ` + "`" + `my-project/` + "`" + `, ` + "`" + `cooking/` + "`" + `), not by kind of information.
- Prefer one focused entry per topic over long catch-all files.
- Create a sub-folder once a subject holds more than a handful of entries.

## Keep it current

- Check the library (kbList, then kbRead) before answering from general knowledge.
- When something changes, update the existing entry instead of adding a near-duplicate.
- Merge overlapping entries and delete the ones that became obsolete.

## Write for your future self

- Record decisions together with the reason they were made.
- Record user preferences verbatim where possible.
- Keep entries short and scannable: headings, bullets, code blocks.
`

// Instructions is the managed instructions file placed under .instructions/.
// It is rewritten on every start.
const Instructions = `---
applyTo: "**"
---

You have a persistent memory exposed through the kbList, kbRead, kbWrite
and kbDelete tools.

- At the start of a conversation call kbList to see which subjects you know about.
- Before answering a question that might depend on saved context, call kbRead
  with a few keywords.
- When you learn a decision, preference, convention or solution worth keeping,
  save it with kbWrite. Use the directory parameter to file it under a subject.
- Remove outdated entries with kbDelete.
- Follow LIBRARIAN.md at the root of the memory for organization rules.
`
