/*
Copyright © 2024 the RangeGrid authors.
This file is part of RangeGrid.

RangeGrid is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

RangeGrid is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with RangeGrid.  If not, see <http://www.gnu.org/licenses/>.
*/

package rangegrid

import "fmt"

// InvalidGeometryError indicates a degenerate study-area polygon or a
// non-positive cell dimension. It is fatal: no grid is produced.
type InvalidGeometryError struct {
	msg string
}

func (e *InvalidGeometryError) Error() string { return e.msg }

func invalidGeometryf(format string, args ...interface{}) *InvalidGeometryError {
	return &InvalidGeometryError{msg: "rangegrid: " + fmt.Sprintf(format, args...)}
}

// DomainError indicates a value outside the mathematical domain of a
// transform, such as the logarithm of a negative number. It signals a
// data-modeling violation upstream and is fatal.
type DomainError struct {
	msg string
}

func (e *DomainError) Error() string { return e.msg }

func domainErrorf(format string, args ...interface{}) *DomainError {
	return &DomainError{msg: "rangegrid: " + fmt.Sprintf(format, args...)}
}
