package mcpserver

// instructions is advertised to clients during initialization.
const instructions = `This server is your persistent memory, a directory of Markdown notes that survives between conversations.

Start every conversation with kbList to see which subjects you already know about.
Before answering from general knowledge, search your memory with kbRead.
Save decisions, preferences, conventions and solutions with kbWrite, grouped into subject directories.
Use kbDelete to remove entries that are outdated or were merged elsewhere.
The recall://guidelines resource explains how to organize the memory.`
