package postgresql

func migrations() map[int]string {
	return map[int]string{
		1: `
			-- Create executions table
			CREATE TABLE executions (
				execution_id VARCHAR(255) PRIMARY KEY,
				graph_id VARCHAR(255) NOT NULL,
				status VARCHAR(50) NOT NULL CHECK (status IN ('completed', 'failed', 'cancelled')),
				total_nodes INT NOT NULL DEFAULT 0,
				executed_nodes INT NOT NULL DEFAULT 0,
				failed_nodes INT NOT NULL DEFAULT 0,
				skipped_nodes INT NOT NULL DEFAULT 0,
				execution_order JSONB DEFAULT '[]',
				error_messages JSONB DEFAULT '{}',
				error_message TEXT,
				started_at TIMESTAMP WITH TIME ZONE NOT NULL,
				finished_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_executions_graph_id ON executions(graph_id);
			CREATE INDEX idx_executions_status ON executions(status);
			CREATE INDEX idx_executions_finished_at ON executions(finished_at);
		`,
	}
}
